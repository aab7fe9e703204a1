package utils

import "fmt"

const Version = "0.3.0"

// VersionString is used as PDF producer and in the command line output.
var VersionString = fmt.Sprintf("printlayout %s", Version)
