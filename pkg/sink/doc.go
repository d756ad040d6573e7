// Package sink writes decommutated frames and wild points to files.
//
// Every sink renders the same columns: time, velocity, altitude, pressure and temperature.
// A corrected altitude is suffixed with a star. Tags outside these columns are not rendered.
package sink
