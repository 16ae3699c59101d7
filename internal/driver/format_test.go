package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pyfmt/internal/driver"
	"pyfmt/internal/style"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func pep8() *style.Options {
	st := style.PEP8()
	return &st
}

func TestFormatSource(t *testing.T) {
	out, bag, err := driver.FormatSource("test.py", []byte("x=1\n"), style.PEP8(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "x = 1\n" {
		t.Errorf("output = %q, want %q", out, "x = 1\n")
	}
	if bag.HasErrors() {
		t.Error("unexpected diagnostics")
	}
}

func TestFormatSourceReportsLexErrors(t *testing.T) {
	_, bag, err := driver.FormatSource("test.py", []byte("x = 'unterminated\n"), style.PEP8(), 0)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !bag.HasErrors() {
		t.Error("bag should carry the lexical error")
	}
}

func TestFormatPathsRewritesInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "x=1\n")

	results, err := driver.FormatPaths(context.Background(), []string{dir}, driver.FormatOptions{Style: pep8()})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !results[0].Changed {
		t.Error("expected the file to be reported as changed")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "x = 1\n" {
		t.Errorf("file content = %q, want %q", data, "x = 1\n")
	}
}

func TestFormatPathsCheckDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "x=1\n")

	results, err := driver.FormatPaths(context.Background(), []string{path}, driver.FormatOptions{
		Check: true,
		Style: pep8(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Changed {
		t.Error("check mode must still report the change")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "x=1\n" {
		t.Error("check mode must not rewrite the file")
	}
}

func TestFormatPathsStdoutReturnsContent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "x=1\n")

	results, err := driver.FormatPaths(context.Background(), []string{path}, driver.FormatOptions{
		Stdout: true,
		Style:  pep8(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(results[0].Formatted) != "x = 1\n" {
		t.Errorf("Formatted = %q", results[0].Formatted)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "x=1\n" {
		t.Error("stdout mode must not rewrite the file")
	}
}

func TestFormatPathsAlreadyFormatted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")

	results, err := driver.FormatPaths(context.Background(), []string{dir}, driver.FormatOptions{Style: pep8()})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Changed {
		t.Error("an already formatted file must not be reported as changed")
	}
}

func TestFormatPathsBrokenFileDoesNotAbortRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.py", "x = 'oops\n")
	good := writeFile(t, dir, "good.py", "y=2\n")

	results, err := driver.FormatPaths(context.Background(), []string{dir}, driver.FormatOptions{Style: pep8()})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	var badErr, goodOK bool
	for _, res := range results {
		if filepath.Base(res.Path) == "bad.py" && res.Err != nil {
			badErr = true
		}
		if res.Path == good && res.Err == nil && res.Changed {
			goodOK = true
		}
	}
	if !badErr {
		t.Error("the broken file should carry an error")
	}
	if !goodOK {
		t.Error("the good file should still be formatted")
	}
}

func TestListSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "")
	writeFile(t, dir, "pkg/b.pyi", "")
	writeFile(t, dir, "pkg/ignore.txt", "")
	writeFile(t, dir, "__pycache__/c.py", "")
	writeFile(t, dir, ".hidden/d.py", "")

	files, err := driver.ListSourceFiles(context.Background(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.py"),
		filepath.Join(dir, "pkg", "b.pyi"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := driver.Digest{1, 2, 3}
	var got driver.CachePayload
	if ok, err := cache.Get(key, &got); err != nil || ok {
		t.Fatalf("unexpected hit on empty cache (ok=%v err=%v)", ok, err)
	}

	put := driver.CachePayload{Schema: 1, Formatted: []byte("x = 1\n")}
	if err := cache.Put(key, &put); err != nil {
		t.Fatal(err)
	}
	if ok, err := cache.Get(key, &got); err != nil || !ok {
		t.Fatalf("expected a hit (ok=%v err=%v)", ok, err)
	}
	if string(got.Formatted) != "x = 1\n" {
		t.Errorf("Formatted = %q", got.Formatted)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := cache.Get(key, &got); ok {
		t.Error("expected a miss after DropAll")
	}
}

func TestFormatPathsUsesCache(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x=1\n")
	opts := driver.FormatOptions{Check: true, Style: pep8(), Cache: cache}

	first, err := driver.FormatPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].CacheHit {
		t.Error("first run must not hit the cache")
	}

	second, err := driver.FormatPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second[0].CacheHit {
		t.Error("second run should hit the cache")
	}
	if !second[0].Changed {
		t.Error("cached result must still report the pending change")
	}
}

func TestTokenizeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "x = 1\n")

	res, err := driver.Tokenize(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Ident, Assign, Number, Newline, EOF.
	if len(res.Tokens) != 5 {
		t.Errorf("got %d tokens, want 5", len(res.Tokens))
	}
	if res.Bag.HasErrors() {
		t.Error("unexpected diagnostics")
	}
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	ch := make(chan driver.Event, 1)
	sink := driver.ChannelSink{Ch: ch}
	sink.OnEvent(driver.Event{File: "a.py"})
	sink.OnEvent(driver.Event{File: "b.py"}) // must not block
	ev := <-ch
	if ev.File != "a.py" {
		t.Errorf("got %q, want the first event", ev.File)
	}
}
