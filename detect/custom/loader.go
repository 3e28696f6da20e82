// Package custom runs per-site Lua extractors that turn a page payload into
// candidates.
package custom

import (
	"fmt"
	"path/filepath"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/vidscout/vidscout/constant"
	"github.com/vidscout/vidscout/filesystem"
	"github.com/vidscout/vidscout/internal/scraper"
	"github.com/vidscout/vidscout/log"
	"github.com/vidscout/vidscout/source"
	"github.com/vidscout/vidscout/util"
	lua "github.com/yuin/gopher-lua"
)

// Load compiles and validates a single extractor script.
func Load(path string) (*Extractor, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state)

	if err := scraper.PreCompileAndLoad(state, path); err != nil {
		state.Close()
		return nil, err
	}

	name := util.FileStem(path)

	for _, fn := range []string{constant.MatchFn, constant.ExtractFn} {
		if state.GetGlobal(fn).Type() != lua.LTFunction {
			state.Close()
			return nil, fmt.Errorf("function %s is required but not defined in %s", fn, name)
		}
	}

	return newExtractor(name, path, tagFor(name), state), nil
}

// LoadAll loads every script in dir. Broken scripts are logged and skipped.
func LoadAll(dir string) (Set, error) {
	files, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var set Set
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != constant.ExtractorExtension {
			continue
		}

		ex, err := Load(filepath.Join(dir, f.Name()))
		if err != nil {
			log.Warnf("skipping extractor %s: %s", f.Name(), err)
			continue
		}

		set = append(set, ex)
	}

	return set, nil
}

// tagFor uses the site tag when the script is named after a known site.
func tagFor(name string) source.Tag {
	if tag := source.Tag(name); source.Known(tag) && source.Priority(tag) == source.SiteParser && tag != source.Platform {
		return tag
	}
	return source.Site
}
