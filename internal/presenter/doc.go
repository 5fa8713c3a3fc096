// Package presenter is the terminal presentation layer of the timer.
//
// It renders engine state as an MM:SS clock with the phase and the N/4 cycle
// indicator, shows which of Start and Stop is available, surfaces phase
// notifications as banners, and keeps the display opacity level.
package presenter
