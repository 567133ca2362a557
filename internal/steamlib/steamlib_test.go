package steamlib_test

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"steamclip/internal/logging"
	"steamclip/internal/steamlib"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func appManifest(appID uint32, name string) string {
	return fmt.Sprintf(`"AppState"
{
	"appid"		"%d"
	"universe"		"1"
	"LauncherPath"		"C:\\Program Files (x86)\\Steam\\steam.exe"
	"name"		"%s"
	"StateFlags"		"4"
	"installdir"		"%s"
	"InstalledDepots"
	{
		"%d"
		{
			"manifest"		"1234"
			"size"		"5678"
		}
	}
}
`, appID, name, name, appID+1)
}

func libraryFolders(paths ...string) string {
	body := "\"libraryfolders\"\n{\n"
	for i, p := range paths {
		body += fmt.Sprintf("\t\"%d\"\n\t{\n\t\t\"path\"\t\t\"%s\"\n\t\t\"label\"\t\t\"\"\n\t\t\"contentid\"\t\t\"42\"\n\t\t\"apps\"\n\t\t{\n\t\t\t\"570\"\t\t\"1\"\n\t\t}\n\t}\n", i, p)
	}
	return body + "}\n"
}

type steamFixture struct {
	steamRoot string
	library   string
}

func newSteamFixture(t *testing.T) steamFixture {
	t.Helper()
	base := t.TempDir()
	steamRoot := filepath.Join(base, "Steam")
	library := filepath.Join(base, "SteamLibrary")

	writeFile(t, filepath.Join(steamRoot, "steamapps", "appmanifest_570.acf"), appManifest(570, "Dota 2"))
	writeFile(t, filepath.Join(library, "steamapps", "appmanifest_570.acf"), appManifest(570, "Dota 2 Secondary"))
	writeFile(t, filepath.Join(library, "steamapps", "appmanifest_294100.acf"), appManifest(294100, "RimWorld"))
	writeFile(t, filepath.Join(steamRoot, "config", "libraryfolders.vdf"), libraryFolders(steamRoot, library))
	return steamFixture{steamRoot: steamRoot, library: library}
}

func TestDiscoverFollowsLibraryFolders(t *testing.T) {
	fx := newSteamFixture(t)

	roots := steamlib.Discover([]string{fx.steamRoot}, logging.NewNop())
	want := []steamlib.LibraryRoot{
		{Path: filepath.Join(fx.steamRoot, "steamapps")},
		{Path: filepath.Join(fx.library, "steamapps")},
	}
	if !reflect.DeepEqual(roots, want) {
		t.Fatalf("unexpected roots:\n got %#v\nwant %#v", roots, want)
	}
}

func TestDiscoverSkipsMissingCandidatesAndLibraries(t *testing.T) {
	base := t.TempDir()
	steamRoot := filepath.Join(base, "Steam")
	writeFile(t, filepath.Join(steamRoot, "steamapps", "libraryfolders.vdf"),
		libraryFolders(filepath.Join(base, "unplugged-drive")))

	roots := steamlib.Discover([]string{filepath.Join(base, "nope"), steamRoot, steamRoot}, nil)
	if len(roots) != 1 || roots[0].Path != filepath.Join(steamRoot, "steamapps") {
		t.Fatalf("unexpected roots: %#v", roots)
	}
}

func TestDiscoverLegacyLibraryFolders(t *testing.T) {
	base := t.TempDir()
	steamRoot := filepath.Join(base, "Steam")
	library := filepath.Join(base, "Games")
	if err := os.MkdirAll(filepath.Join(library, "steamapps"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(steamRoot, "steamapps", "libraryfolders.vdf"), fmt.Sprintf(`"LibraryFolders"
{
	"TimeNextStatsReport"		"1700000000"
	"ContentStatsID"		"-123"
	"1"		"%s"
}
`, library))

	roots := steamlib.Discover([]string{steamRoot}, nil)
	if len(roots) != 2 || roots[1].Path != filepath.Join(library, "steamapps") {
		t.Fatalf("unexpected roots: %#v", roots)
	}
}

func TestDiscoverMalformedIndexUsesLooseScan(t *testing.T) {
	base := t.TempDir()
	steamRoot := filepath.Join(base, "Steam")
	library := filepath.Join(base, "Games")
	if err := os.MkdirAll(filepath.Join(library, "steamapps"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(steamRoot, "config", "libraryfolders.vdf"),
		fmt.Sprintf("\"libraryfolders\"\n{\n\t\"0\"\n\t{\n\t\t\"path\"\t\t\"%s\"\n", library))

	roots := steamlib.Discover([]string{steamRoot}, nil)
	found := false
	for _, root := range roots {
		if root.Path == filepath.Join(library, "steamapps") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected truncated index to still yield library, got %#v", roots)
	}
}

func TestResolverNameFirstMatchWins(t *testing.T) {
	fx := newSteamFixture(t)
	resolver := steamlib.NewResolver([]string{fx.steamRoot}, logging.NewNop())

	if name, ok := resolver.Name(570); !ok || name != "Dota 2" {
		t.Fatalf("expected Dota 2, got %q (ok=%v)", name, ok)
	}
	if name := resolver.DisplayName(294100); name != "RimWorld" {
		t.Fatalf("expected name from second library, got %q", name)
	}
}

func TestResolverFallsBackToAppID(t *testing.T) {
	fx := newSteamFixture(t)
	resolver := steamlib.NewResolver([]string{fx.steamRoot}, nil)

	if _, ok := resolver.Name(999999); ok {
		t.Fatal("expected no name for unknown app")
	}
	if name := resolver.DisplayName(999999); name != "999999" {
		t.Fatalf("expected literal fallback, got %q", name)
	}

	empty := steamlib.NewResolver(nil, nil)
	if name := empty.DisplayName(570); name != "570" {
		t.Fatalf("expected fallback without roots, got %q", name)
	}
}

func TestResolverToleratesBrokenManifests(t *testing.T) {
	base := t.TempDir()
	first := filepath.Join(base, "a", "steamapps")
	second := filepath.Join(base, "b", "steamapps")
	writeFile(t, filepath.Join(first, "appmanifest_10.acf"), "\x00\x01 not keyvalues {{{")
	writeFile(t, filepath.Join(first, "appmanifest_20.acf"), "\"AppState\"\n{\n\t\"appid\"\t\t\"20\"\n}\n")
	writeFile(t, filepath.Join(second, "appmanifest_10.acf"), appManifest(10, "Counter-Strike"))
	writeFile(t, filepath.Join(second, "appmanifest_20.acf"), appManifest(20, "Team Fortress Classic"))

	resolver := steamlib.NewResolverWithRoots([]steamlib.LibraryRoot{{Path: first}, {Path: second}}, nil)
	if name := resolver.DisplayName(10); name != "Counter-Strike" {
		t.Fatalf("expected broken manifest to be skipped, got %q", name)
	}
	if name := resolver.DisplayName(20); name != "Team Fortress Classic" {
		t.Fatalf("expected nameless manifest to be skipped, got %q", name)
	}
}

func TestResolverIndex(t *testing.T) {
	fx := newSteamFixture(t)
	resolver := steamlib.NewResolver([]string{fx.steamRoot}, nil)

	index := resolver.Index([]uint32{570, 999999, 570})
	want := steamlib.AppNameIndex{570: "Dota 2", 999999: "999999"}
	if !reflect.DeepEqual(index, want) {
		t.Fatalf("unexpected index: %#v", index)
	}
	if len(resolver.Roots()) != 2 {
		t.Fatalf("expected roots to be reused, got %#v", resolver.Roots())
	}
}

func TestDefaultSteamRoots(t *testing.T) {
	env := func(values map[string]string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			v, ok := values[key]
			return v, ok
		}
	}

	mac := steamlib.DefaultSteamRoots("darwin", env(map[string]string{"HOME": "/Users/gabe"}))
	if len(mac) != 1 || mac[0] != filepath.Join("/Users/gabe", "Library", "Application Support", "Steam") {
		t.Fatalf("unexpected darwin roots: %#v", mac)
	}

	linux := steamlib.DefaultSteamRoots("linux", env(map[string]string{"HOME": "/home/gabe"}))
	if len(linux) != 3 || linux[0] != filepath.Join("/home/gabe", ".local", "share", "Steam") {
		t.Fatalf("unexpected linux roots: %#v", linux)
	}

	win := steamlib.DefaultSteamRoots("windows", env(map[string]string{"PROGRAMFILES(X86)": `D:\Apps`}))
	if len(win) != 1 || win[0] != `D:\Apps\Steam` {
		t.Fatalf("unexpected windows roots: %#v", win)
	}
	winDefault := steamlib.DefaultSteamRoots("windows", env(nil))
	if len(winDefault) != 1 || winDefault[0] != `C:\Program Files (x86)\Steam` {
		t.Fatalf("unexpected windows fallback: %#v", winDefault)
	}
}

func TestRootFromPath(t *testing.T) {
	fx := newSteamFixture(t)
	userdata := filepath.Join(fx.steamRoot, "userdata", "12345", "gamerecordings")
	if err := os.MkdirAll(userdata, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	root, ok := steamlib.RootFromPath(userdata)
	if !ok || root != fx.steamRoot {
		t.Fatalf("expected %s, got %q (ok=%v)", fx.steamRoot, root, ok)
	}
	if _, ok := steamlib.RootFromPath(t.TempDir()); ok {
		t.Fatal("expected no steam root above an unrelated directory")
	}
}
