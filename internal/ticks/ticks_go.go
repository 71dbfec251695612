//go:build !tinygo

package ticks

var systemTicks uint32

func getSystemTicks() uint32 { return systemTicks }

func setSystemTicks(t uint32) { systemTicks = t }
