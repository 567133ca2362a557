// Package clipname parses the folder names Steam's background recorder gives
// to clip bundles.
//
// A recording folder is named fg_<appid>_<YYYYMMDD>_<HHMMSS> and lives under a
// clip_<appid>_<YYYYMMDD>_<HHMMSS>/video parent. The date and time digits are
// the capture start in UTC, so parsing never consults the local time zone.
package clipname
