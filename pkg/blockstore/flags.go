package blockstore

import "os"

const (
	osCreateFlags    = os.O_RDWR | os.O_CREATE
	osReadWriteFlags = os.O_RDWR
)
