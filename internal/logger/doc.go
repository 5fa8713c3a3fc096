// Package logger wraps zap with a global sugared logger and context helpers.
//
// Components receive a context, scope it with WithName or WithKV and log
// through the package-level functions (Info, InfoKV, ErrorKV, ...), which pick
// the logger up with FromContext.
package logger
