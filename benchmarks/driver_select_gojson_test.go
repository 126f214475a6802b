//go:build gojson

package ocsigenserver_test

import (
	ocsigenserver "github.com/huangered/ocsigenserver"
	drv "github.com/huangered/ocsigenserver/source/gojson"
)

func init() {
	ocsigenserver.SetBodyDriver(drv.Driver())
}
