// Package fakes provides test doubles shared across packages: a
// scripted console prompter and a recording in-process Sentry API
// server. Production code never imports this package.
package fakes
