//go:build !sdcard

package config

const defaultMedium = MediumFlash
