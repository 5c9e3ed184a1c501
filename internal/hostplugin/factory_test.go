package hostplugin

import "testing"

func TestMemoryPagesDefault(t *testing.T) {
	pages, err := memoryPages("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != defaultMemoryPages {
		t.Fatalf("pages = %d, want %d", pages, defaultMemoryPages)
	}
}

func TestMemoryPagesExactMultiple(t *testing.T) {
	pages, err := memoryPages("1MiB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1,048,576 bytes is exactly 16 pages of 64KiB.
	if pages != 16 {
		t.Fatalf("pages = %d, want 16", pages)
	}
}

func TestMemoryPagesRoundsUp(t *testing.T) {
	pages, err := memoryPages("1KB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 1 {
		t.Fatalf("pages = %d, want 1 (rounded up from a fraction of a page)", pages)
	}
}

func TestMemoryPagesInvalid(t *testing.T) {
	if _, err := memoryPages("not-a-size"); err == nil {
		t.Fatal("expected an error for an unparsable memory limit")
	}
}
