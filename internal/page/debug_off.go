//go:build !tunnelview_debug

package page

const debugAssertions = false
