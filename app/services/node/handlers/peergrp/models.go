package peergrp

// NodeAddress carries the base URL of a node.
type NodeAddress struct {
	NodeAddress string `json:"node_address" validate:"required,url"`
}

type status struct {
	Status string `json:"status"`
}
