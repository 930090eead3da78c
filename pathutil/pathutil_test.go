package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"":                 ".",
		".":                ".",
		"./a":              "a",
		"a/./b":            "a/b",
		"a/../b":           "b",
		"/a/../b":          "/b",
		"/..":              "/",
		"/../a":            "/a",
		"../a":             "../a",
		"../../a":          "../../a",
		"a/../../b":        "../b",
		"/a/b/../../../c":  "/c",
		"a//b":             "a/b",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()
	inputs := []string{"", ".", "a/b/../c", "/a/../../b", "../x/./y", "a/b/c"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "Normalize not idempotent for %q", in)
	}
}

func TestDirname(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/a/b", Dirname("/a/b/c.js"))
	assert.Equal(t, "/", Dirname("/c.js"))
	assert.Equal(t, ".", Dirname("c.js"))
}

func TestJoin(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a/b", Join("a", "b"))
	assert.Equal(t, "a/b", Join("a/", "b"))
	assert.Equal(t, "a/b", Join("a", "/b"))
	assert.Equal(t, "a", Join("a", ""))
	assert.Equal(t, "b", Join("", "b"))
	assert.Equal(t, "/a/c", Join("/a/b", "../c"))
}
