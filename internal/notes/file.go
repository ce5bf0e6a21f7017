package notes

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Load reads notes from path: a YAML file mapping chapter code to text, or
// a directory of <chapter>.md / <chapter>.txt files.
func Load(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, eris.Wrap(err, "notes: stat")
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadFile reads a YAML document of the form
//
//	"84": |
//	  Notes for chapter 84...
func LoadFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "notes: read file")
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(err, "notes: parse %s", path)
	}
	src := make(Source, len(raw))
	for code, text := range raw {
		src[padChapter(code)] = text
	}
	return src, nil
}

// LoadDir reads one file per chapter from dir. Other files are ignored.
func LoadDir(dir string) (Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrap(err, "notes: read dir")
	}
	src := Source{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".md" && ext != ".txt" {
			continue
		}
		code := padChapter(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		if len(code) != 2 {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, eris.Wrapf(err, "notes: read %s", e.Name())
		}
		src[code] = string(data)
	}
	return src, nil
}

// padChapter turns "1" into "01"; YAML keys written without quotes lose
// their leading zero.
func padChapter(code string) string {
	code = strings.TrimSpace(code)
	if len(code) == 1 {
		return "0" + code
	}
	return code
}
