// Package resample converts whole signals between sample rates with a
// polyphase Kaiser-windowed sinc filter. It brings decoded assets to the
// rate of the spatialization engine.
package resample
