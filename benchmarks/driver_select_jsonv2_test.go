//go:build jsonv2

package ocsigenserver_test

import (
	ocsigenserver "github.com/huangered/ocsigenserver"
	drv "github.com/huangered/ocsigenserver/source/jsonv2"
)

func init() {
	ocsigenserver.SetBodyDriver(drv.Driver())
}
