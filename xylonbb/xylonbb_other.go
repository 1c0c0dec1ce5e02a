//go:build !linux

package xylonbb

import "errors"

var errUnsupported = errors.New("xylonbb: only supported on linux")

func openDevice(string) (int, error) { return -1, errUnsupported }

func closeDevice(int) error { return nil }

func submitBitblit(int, *bitblitParams) error { return errUnsupported }
