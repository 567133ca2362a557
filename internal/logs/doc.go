// Package logs reads the per-run log files steamclip writes to its log
// directory. It locates the newest run log, returns its last lines with
// bounded memory, and can follow a log while another run is still writing it.
package logs
