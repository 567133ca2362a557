package steamlib

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func parseFixture(t *testing.T, content string) (map[string]interface{}, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.vdf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	doc, raw, err := readKeyValues(path)
	if err != nil {
		t.Fatalf("readKeyValues: %v", err)
	}
	return doc, raw
}

const windowsLibraryFolders = `"libraryfolders"
{
	"0"
	{
		"path"		"C:\\Program Files (x86)\\Steam"
	}
	"1"
	{
		"path"		"\\\\nas\\games"
	}
	"2"
	{
		"path"		"D:\\SteamLibrary"
	}
}
`

func TestLibraryFolderPathsKeepsUNCPrefix(t *testing.T) {
	doc, raw := parseFixture(t, windowsLibraryFolders)
	want := []string{`C:\Program Files (x86)\Steam`, `\\nas\games`, `D:\SteamLibrary`}

	if got := libraryFolderPaths(doc); !reflect.DeepEqual(got, want) {
		t.Fatalf("structured paths:\n got %q\nwant %q", got, want)
	}
	if got := looseLibraryFolderPaths(raw); !reflect.DeepEqual(got, want) {
		t.Fatalf("loose paths:\n got %q\nwant %q", got, want)
	}
}

func TestAppManifestNameUnescapesQuotes(t *testing.T) {
	doc, raw := parseFixture(t, `"AppState"
{
	"appid"		"4242"
	"name"		"Say \"Hi\" Game"
}
`)
	if got := appManifestName(doc); got != `Say "Hi" Game` {
		t.Fatalf("structured name = %q", got)
	}
	if got := looseAppManifestName(raw); got != `Say "Hi" Game` {
		t.Fatalf("loose name = %q", got)
	}
}

func TestUnescapeKeepsUnknownEscapes(t *testing.T) {
	if got := unescape(`D:\Games\\new`); got != `D:\Games\new` {
		t.Fatalf("unescape = %q", got)
	}
}
