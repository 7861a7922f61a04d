//go:build !darwin

package fpenv

const isDarwin = false
