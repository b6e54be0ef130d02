//go:build sdcard

package config

const defaultMedium = MediumSD
