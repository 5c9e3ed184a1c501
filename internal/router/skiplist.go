package router

import "github.com/bmatcuk/doublestar/v4"

// matchesAny reports whether name matches any of the glob patterns, per
// doublestar's `*`/`**`/`?`/character-class syntax. A malformed pattern
// never matches rather than erroring out a request.
func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func (e *pluginEntry) skipsTool(name string) bool {
	return e.rc != nil && matchesAny(e.rc.SkipTools, name)
}

func (e *pluginEntry) skipsPrompt(name string) bool {
	return e.rc != nil && matchesAny(e.rc.SkipPrompts, name)
}

func (e *pluginEntry) skipsResource(uri string) bool {
	return e.rc != nil && matchesAny(e.rc.SkipResources, uri)
}

func (e *pluginEntry) skipsResourceTemplate(uriTemplate string) bool {
	return e.rc != nil && matchesAny(e.rc.SkipResourceTemplates, uriTemplate)
}
