// Package audio turns an arbitrary recording into fixed-length 16 kHz mono
// WAV chunks with absolute timestamps.
//
// Normalizer shells out to ffmpeg for resampling, downmixing and optional
// denoising. Segmenter streams the normalized WAV one chunk at a time and
// cuts it where Plan says, rounded to sample boundaries, so chunk i covers
// [i*D, min((i+1)*D, T)) without gaps or overlaps.
package audio
