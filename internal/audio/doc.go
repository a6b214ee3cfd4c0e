// Package audio records fixed-length PCM segments from the default input
// device and writes them as uncompressed WAV files for transcription.
package audio
