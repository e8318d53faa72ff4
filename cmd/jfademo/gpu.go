//go:build !nogpu

package main

import _ "github.com/gogpu/jfa/gpu" // enable GPU acceleration
