// Package version carries the build identity of the legalassist binary.
//
// Version, commit, branch and build time are injected with -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/legalassist/version.Version=1.2.0" ./cmd/legalassist
//
// When they are absent the values recorded by the Go toolchain in the
// binary's build info are used instead.
package version
