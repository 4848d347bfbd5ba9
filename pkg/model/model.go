package model

type RecordResponse struct {
	Key     string `json:"key,omitempty"`
	Name    string `json:"name,omitempty"`
	TLD     string `json:"tld,omitempty"`
	Owner   string `json:"owner,omitempty"`
	IP      string `json:"ip,omitempty"`
	CID     string `json:"cid,omitempty"`
	Expires int64  `json:"expires,omitempty"`
	Expired bool   `json:"expired,omitempty"`
}

type PriceResponse struct {
	Name  string `json:"name,omitempty"`
	Price string `json:"price,omitempty"`
}

type EventResponse struct {
	Seq       uint64 `json:"seq,omitempty"`
	TxID      string `json:"txId,omitempty"`
	Event     string `json:"event,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Name      string `json:"name,omitempty"`
	TLD       string `json:"tld,omitempty"`
	Owner     string `json:"owner,omitempty"`
	NewOwner  string `json:"newOwner,omitempty"`
	NewIP     string `json:"newIp,omitempty"`
	NewCID    string `json:"newCid,omitempty"`
	Amount    string `json:"amount,omitempty"`
	Expires   int64  `json:"expires,omitempty"`
}

type TxResponse struct {
	TxID   string          `json:"txId,omitempty"`
	Events []EventResponse `json:"events,omitempty"`
}

type BalanceResponse struct {
	Address   string `json:"address,omitempty"`
	Admin     string `json:"admin,omitempty"`
	Balance   string `json:"balance,omitempty"`
	Withdrawn string `json:"withdrawn,omitempty"`
	Destroyed bool   `json:"destroyed,omitempty"`
}

type ErrorResponse struct {
	Status  int         `json:"status,omitempty"`
	Message string      `json:"msg,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
