package handlers

import (
	"gotokenbridge/bridge"
	"gotokenbridge/channel"
)

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

type APIStateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type APIOperationResponse struct {
	Status    string `json:"status"`
	ID        string `json:"id,omitempty"`
	MessageID string `json:"messageId,omitempty"`
}

type APICustodyResponse struct {
	Status    string `json:"status"`
	Asset     string `json:"asset"`
	Custodied string `json:"custodied"`
	Deposited string `json:"deposited"`
	Released  string `json:"released"`
}

type APISupplyResponse struct {
	Status      string `json:"status"`
	Asset       string `json:"asset"`
	Kind        string `json:"kind"`
	Address     string `json:"address"`
	Provisioned bool   `json:"provisioned"`
	TotalSupply string `json:"totalSupply"`
}

// wiring set once from main before the HTTP worker starts
var (
	Home       *bridge.HomeBridge
	Remote     *bridge.RemoteBridge
	Dispatcher *channel.Dispatcher
)

func Init(home *bridge.HomeBridge, remote *bridge.RemoteBridge, dispatcher *channel.Dispatcher) {
	Home = home
	Remote = remote
	Dispatcher = dispatcher
}
