package client

import (
	"hyperunit-sdk/chains"
	"hyperunit-sdk/guardian"
)

// OperationState is the bridge-side lifecycle state of an operation.
type OperationState string

const (
	StateSrcTxDiscovered          OperationState = "sourceTxDiscovered"
	StateWaitForSrcTxFinalization OperationState = "waitForSrcTxFinalization"
	StateBuildingDstTx            OperationState = "buildingDstTx"
	StateSignTx                   OperationState = "signTx"
	StateBroadcastTx              OperationState = "broadcastTx"
	StateWaitForDstTxFinalization OperationState = "waitForDstTxFinalization"
	StateReadyForWithdrawQueue    OperationState = "readyForWithdrawQueue"
	StateQueuedForWithdraw        OperationState = "queuedForWithdraw"
	StateDone                     OperationState = "done"
	StateFailure                  OperationState = "failure"
)

// Terminal reports whether no further transitions are expected.
func (s OperationState) Terminal() bool {
	return s == StateDone || s == StateFailure
}

// GenerateAddressParams identifies the deposit route a caller asks for.
type GenerateAddressParams struct {
	SrcChain string `json:"src_chain"`
	DstChain string `json:"dst_chain"`
	Asset    string `json:"asset"`
	DstAddr  string `json:"dst_addr"`
}

// Proposal is the tuple guardians should have signed for a generated address.
func (p GenerateAddressParams) Proposal(generated string) guardian.AddressProposal {
	return guardian.AddressProposal{
		SourceChain:        p.SrcChain,
		DestinationChain:   p.DstChain,
		Asset:              p.Asset,
		DestinationAddress: p.DstAddr,
		GeneratedAddress:   generated,
		CoinType:           chains.CoinType(p.Asset),
	}
}

// GenerateAddressResponse is the /gen body.
type GenerateAddressResponse struct {
	Address    string                `json:"address"`
	Signatures guardian.SignatureSet `json:"signatures"`
	Status     string                `json:"status"`
}

// VerifiedAddressResponse is a /gen body plus the guardian verdict.
type VerifiedAddressResponse struct {
	GenerateAddressResponse
	Verification guardian.Verdict `json:"verification"`
	// AddressFormatValid reports whether the generated address parses for the source chain.
	AddressFormatValid bool `json:"addressFormatValid"`
}

// Trusted is true only when the guardian quorum verified and the address is well formed.
func (r VerifiedAddressResponse) Trusted() bool {
	return r.Verification.Success && r.AddressFormatValid
}

// Address is a generated address as listed by /operations.
type Address struct {
	SourceCoinType   string                `json:"sourceCoinType"`
	DestinationChain string                `json:"destinationChain"`
	Address          string                `json:"address"`
	Signatures       guardian.SignatureSet `json:"signatures"`
}

// Operation is one bridge transfer.
type Operation struct {
	OpCreatedAt                string         `json:"opCreatedAt"`
	OperationID                string         `json:"operationId"`
	ProtocolAddress            string         `json:"protocolAddress"`
	SourceAddress              string         `json:"sourceAddress"`
	DestinationAddress         string         `json:"destinationAddress"`
	SourceChain                string         `json:"sourceChain"`
	DestinationChain           string         `json:"destinationChain"`
	SourceAmount               string         `json:"sourceAmount"`
	DestinationFeeAmount       string         `json:"destinationFeeAmount"`
	SweepFeeAmount             string         `json:"sweepFeeAmount"`
	StateStartedAt             string         `json:"stateStartedAt"`
	StateUpdatedAt             string         `json:"stateUpdatedAt"`
	StateNextAttemptAt         string         `json:"stateNextAttemptAt"`
	SourceTxHash               string         `json:"sourceTxHash"`
	SourceTxConfirmations      *int           `json:"sourceTxConfirmations,omitempty"`
	DestinationTxHash          string         `json:"destinationTxHash"`
	DestinationTxConfirmations *int           `json:"destinationTxConfirmations,omitempty"`
	BroadcastAt                string         `json:"broadcastAt,omitempty"`
	Asset                      string         `json:"asset"`
	State                      OperationState `json:"state"`
	PositionInWithdrawQueue    *int           `json:"positionInWithdrawQueue,omitempty"`
}

// GetOperationsResponse is the /operations body.
type GetOperationsResponse struct {
	Addresses  []Address   `json:"addresses"`
	Operations []Operation `json:"operations"`
}

type BitcoinFeeEstimate struct {
	DepositFeeRateSatsPerVB    float64 `json:"deposit-fee-rate-sats-per-vb"`
	DepositSizeVBytes          float64 `json:"deposit-size-v-bytes"`
	DepositEta                 string  `json:"depositEta"`
	DepositFee                 float64 `json:"depositFee"`
	WithdrawalFeeRateSatsPerVB float64 `json:"withdrawal-fee-rate-sats-per-vb"`
	WithdrawalSizeVBytes       float64 `json:"withdrawal-size-v-bytes"`
	WithdrawalEta              string  `json:"withdrawalEta"`
	WithdrawalFee              float64 `json:"withdrawalFee"`
}

type EthereumFeeEstimate struct {
	BaseFee          float64 `json:"base-fee"`
	DepositEta       string  `json:"depositEta"`
	DepositFee       float64 `json:"depositFee"`
	EthDepositGas    float64 `json:"eth-deposit-gas"`
	EthWithdrawalGas float64 `json:"eth-withdrawal-gas"`
	PriorityFee      float64 `json:"priority-fee"`
	WithdrawalEta    string  `json:"withdrawalEta"`
	WithdrawalFee    float64 `json:"withdrawalFee"`
}

// SimpleFeeEstimate covers solana and SPL tokens.
type SimpleFeeEstimate struct {
	DepositEta    string  `json:"depositEta"`
	DepositFee    float64 `json:"depositFee"`
	WithdrawalEta string  `json:"withdrawalEta"`
	WithdrawalFee float64 `json:"withdrawalFee"`
}

// EstimateFeesResponse is the /v2/estimate-fees body.
type EstimateFeesResponse struct {
	Bitcoin  BitcoinFeeEstimate  `json:"bitcoin"`
	Ethereum EthereumFeeEstimate `json:"ethereum"`
	Solana   SimpleFeeEstimate   `json:"solana"`
	SPL      SimpleFeeEstimate   `json:"spl"`
}

type WithdrawalQueueInfo struct {
	LastWithdrawQueueOperationTxID string `json:"lastWithdrawQueueOperationTxID"`
	WithdrawalQueueLength          int    `json:"withdrawalQueueLength"`
}

// WithdrawalQueueResponse is the /withdrawal-queue body.
type WithdrawalQueueResponse struct {
	Bitcoin  WithdrawalQueueInfo `json:"bitcoin"`
	Ethereum WithdrawalQueueInfo `json:"ethereum"`
}

// APIResponse wraps a decoded body with transport metadata.
type APIResponse[T any] struct {
	Data       T                 `json:"data"`
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	RequestID  string            `json:"requestId"`
}

// apiErrorBody is the bridge's error envelope.
type apiErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
