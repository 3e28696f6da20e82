package custom

import (
	"errors"
	"net/url"
	"strings"

	"github.com/vidscout/vidscout/media"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/source"
	lua "github.com/yuin/gopher-lua"
)

func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return strings.TrimSpace(val.String())
	}
	return ""
}

func getStringField(table *lua.LTable, key, def string) string {
	val := table.RawGetString(key)
	if val == lua.LNil {
		return def
	}
	return val.String()
}

func getStringMap(table *lua.LTable, key string) map[string]string {
	m := make(map[string]string)
	if tbl, ok := table.RawGetString(key).(*lua.LTable); ok {
		tbl.ForEach(func(k, v lua.LValue) {
			m[k.String()] = v.String()
		})
	}
	return m
}

func candidateFromTable(table *lua.LTable, pageURL string, tag source.Tag) (registry.Candidate, error) {
	raw := getString(table, "url")
	if raw == "" {
		return registry.Candidate{}, errors.New("video must have url")
	}

	if base, err := url.Parse(pageURL); err == nil && base.IsAbs() {
		if ref, err := url.Parse(raw); err == nil {
			raw = base.ResolveReference(ref).String()
		}
	}

	c := registry.Candidate{
		URL:         raw,
		Source:      tag,
		Quality:     getString(table, "quality"),
		Title:       getString(table, "title"),
		ContentType: getString(table, "content_type"),
		IsPlaylist:  lua.LVAsBool(table.RawGetString("playlist")),
	}

	if size, ok := table.RawGetString("size").(lua.LNumber); ok && size > 0 {
		c.Size = int64(size)
	}

	c.IsPlaylist = c.IsPlaylist || media.IsHLS(c.URL, c.ContentType)

	return c, nil
}
