// Package process runs external binaries such as ffmpeg. Output is captured,
// cancellation signals the whole process group, and a non-zero exit comes
// back as *ExitError carrying the end of stderr.
package process
