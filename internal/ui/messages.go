package ui

import (
	"github.com/ront3t/beers-table/internal/loader"
	"github.com/ront3t/beers-table/internal/types"
)

type (
	// pageLoadedMsg carries the outcome of one windowed fetch together with
	// the request that produced it.
	pageLoadedMsg struct {
		req   loader.Request
		beers []types.Beer
		err   error
	}
	clearMsgMsg struct {
		seq int
	}
)
