package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var templateSeeds = []string{
	``,
	`plain text`,
	`<div k-show="ok">{{ a }} and {{{ b }}}</div>`,
	`<ul><li k-for="(x, i) in xs">{{ x }}<li>{{ i }}</ul>`,
	`<p k-if="a"><span k-if="b">{{ c }}</span></p>`,
	`<pre k-pre>{{ raw }}<b k-text="x"></b></pre>`,
	`<input k-model="name"><br/><img src="a.png">`,
	`<a k-on:click="go()" k-bind:href="url">{{`,
	`}} {{}} {{ }} {{{ }}} {{{{x}}}}`,
	`</div><p>unclosed <b>bold`,
	`<!-- comment --><template k-if="x"><i>{{ y }}</i></template>`,
	"<div\tk-show\n=\"x\">\r\n</div>",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range templateSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.html файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".html" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
