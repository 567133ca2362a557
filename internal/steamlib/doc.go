// Package steamlib locates Steam library folders and resolves application ids
// to display names.
//
// Steam records every library folder in libraryfolders.vdf under the install
// root, and every installed application in steamapps/appmanifest_<id>.acf
// inside each library. Both files use Valve's KeyValues text format and are
// owned by Steam, so parsing is tolerant: unknown keys are ignored and an
// unreadable or malformed file is treated as holding no data.
//
// Discovery runs at most once per Resolver; name lookups read manifests on
// demand and are not cached.
package steamlib
