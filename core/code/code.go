package code

import (
	"strconv"
)

// Codes for invocation responses
const (
	OK uint32 = 0

	// coffee contract, numbering is shared with the client SDK
	FailedToGetBalance uint32 = 1
	InvalidAmount      uint32 = 2
	NoSupporters       uint32 = 3

	// general
	WrongNonce        uint32 = 101
	TxTooLarge        uint32 = 105
	DecodeError       uint32 = 106
	InsufficientFunds uint32 = 107
	TxPayloadTooLarge uint32 = 109
	WrongChainID      uint32 = 115
	UnknownTxType     uint32 = 116

	// signatures
	IncorrectSignature  uint32 = 604
	DuplicatedAddresses uint32 = 606
	TooManySignatures   uint32 = 610

	// token
	NegativeAmount  uint32 = 801
	BalanceOverflow uint32 = 802

	// host
	StorageKeyNotFound uint32 = 901
	Unauthorized       uint32 = 902
	ContractNotFound   uint32 = 903
	ContractExists     uint32 = 904
	AlreadyInitialized uint32 = 905
	UnknownMethod      uint32 = 906
	InternalError      uint32 = 999
)

// Coder is implemented by errors which carry a response code.
type Coder interface {
	ErrorCode() uint32
}

// Error is a coded failure raised by the host or by a hosted contract. It aborts the
// whole invocation.
type Error struct {
	Code uint32
	Log  string
	Info interface{}
}

func (e *Error) Error() string {
	return e.Log
}

func (e *Error) ErrorCode() uint32 {
	return e.Code
}

func NewError(code uint32, log string, info interface{}) *Error {
	return &Error{Code: code, Log: log, Info: info}
}

type wrongNonce struct {
	Code          string `json:"code,omitempty"`
	ExpectedNonce string `json:"expected_nonce,omitempty"`
	GotNonce      string `json:"got_nonce,omitempty"`
}

func NewWrongNonce(expectedNonce string, gotNonce string) *wrongNonce {
	return &wrongNonce{Code: strconv.Itoa(int(WrongNonce)), ExpectedNonce: expectedNonce, GotNonce: gotNonce}
}

type txTooLarge struct {
	Code        string `json:"code,omitempty"`
	MaxTxLength string `json:"max_tx_length,omitempty"`
	GotTxLength string `json:"got_tx_length,omitempty"`
}

func NewTxTooLarge(maxTxLength string, gotTxLength string) *txTooLarge {
	return &txTooLarge{Code: strconv.Itoa(int(TxTooLarge)), MaxTxLength: maxTxLength, GotTxLength: gotTxLength}
}

type txPayloadTooLarge struct {
	Code             string `json:"code,omitempty"`
	MaxPayloadLength string `json:"max_payload_length,omitempty"`
	GotPayloadLength string `json:"got_payload_length,omitempty"`
}

func NewTxPayloadTooLarge(maxPayloadLength string, gotPayloadLength string) *txPayloadTooLarge {
	return &txPayloadTooLarge{Code: strconv.Itoa(int(TxPayloadTooLarge)), MaxPayloadLength: maxPayloadLength, GotPayloadLength: gotPayloadLength}
}

type decodeError struct {
	Code string `json:"code,omitempty"`
}

func NewDecodeError() *decodeError {
	return &decodeError{Code: strconv.Itoa(int(DecodeError))}
}

type wrongChainID struct {
	Code           string `json:"code,omitempty"`
	CurrentChainId string `json:"current_chain_id,omitempty"`
	GotChainId     string `json:"got_chain_id,omitempty"`
}

func NewWrongChainID(currentChainId string, gotChainId string) *wrongChainID {
	return &wrongChainID{Code: strconv.Itoa(int(WrongChainID)), CurrentChainId: currentChainId, GotChainId: gotChainId}
}

type unknownTxType struct {
	Code   string `json:"code,omitempty"`
	TxType string `json:"tx_type,omitempty"`
}

func NewUnknownTxType(txType string) *unknownTxType {
	return &unknownTxType{Code: strconv.Itoa(int(UnknownTxType)), TxType: txType}
}

type insufficientFunds struct {
	Code        string `json:"code,omitempty"`
	Sender      string `json:"sender,omitempty"`
	NeededValue string `json:"needed_value,omitempty"`
	Token       string `json:"token,omitempty"`
}

func NewInsufficientFunds(sender string, neededValue string, token string) *insufficientFunds {
	return &insufficientFunds{Code: strconv.Itoa(int(InsufficientFunds)), Sender: sender, NeededValue: neededValue, Token: token}
}

type incorrectSignature struct {
	Code string `json:"code,omitempty"`
}

func NewIncorrectSignature() *incorrectSignature {
	return &incorrectSignature{Code: strconv.Itoa(int(IncorrectSignature))}
}

type duplicatedAddresses struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
}

func NewDuplicatedAddresses(address string) *duplicatedAddresses {
	return &duplicatedAddresses{Code: strconv.Itoa(int(DuplicatedAddresses)), Address: address}
}

type tooManySignatures struct {
	Code     string `json:"code,omitempty"`
	MaxCount string `json:"max_count,omitempty"`
	GotCount string `json:"got_count,omitempty"`
}

func NewTooManySignatures(maxCount string, gotCount string) *tooManySignatures {
	return &tooManySignatures{Code: strconv.Itoa(int(TooManySignatures)), MaxCount: maxCount, GotCount: gotCount}
}

type negativeAmount struct {
	Code   string `json:"code,omitempty"`
	Amount string `json:"amount,omitempty"`
}

func NewNegativeAmount(amount string) *negativeAmount {
	return &negativeAmount{Code: strconv.Itoa(int(NegativeAmount)), Amount: amount}
}

type balanceOverflow struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
	Token   string `json:"token,omitempty"`
}

func NewBalanceOverflow(address string, token string) *balanceOverflow {
	return &balanceOverflow{Code: strconv.Itoa(int(BalanceOverflow)), Address: address, Token: token}
}

type storageKeyNotFound struct {
	Code     string `json:"code,omitempty"`
	Contract string `json:"contract,omitempty"`
	Key      string `json:"key,omitempty"`
}

func NewStorageKeyNotFound(contract string, key string) *storageKeyNotFound {
	return &storageKeyNotFound{Code: strconv.Itoa(int(StorageKeyNotFound)), Contract: contract, Key: key}
}

type unauthorized struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
}

func NewUnauthorized(address string) *unauthorized {
	return &unauthorized{Code: strconv.Itoa(int(Unauthorized)), Address: address}
}

type contractNotFound struct {
	Code     string `json:"code,omitempty"`
	Contract string `json:"contract,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

func NewContractNotFound(contract string, kind string) *contractNotFound {
	return &contractNotFound{Code: strconv.Itoa(int(ContractNotFound)), Contract: contract, Kind: kind}
}

type contractExists struct {
	Code     string `json:"code,omitempty"`
	Contract string `json:"contract,omitempty"`
}

func NewContractExists(contract string) *contractExists {
	return &contractExists{Code: strconv.Itoa(int(ContractExists)), Contract: contract}
}

type alreadyInitialized struct {
	Code     string `json:"code,omitempty"`
	Contract string `json:"contract,omitempty"`
}

func NewAlreadyInitialized(contract string) *alreadyInitialized {
	return &alreadyInitialized{Code: strconv.Itoa(int(AlreadyInitialized)), Contract: contract}
}

type unknownMethod struct {
	Code   string `json:"code,omitempty"`
	Method string `json:"method,omitempty"`
}

func NewUnknownMethod(method string) *unknownMethod {
	return &unknownMethod{Code: strconv.Itoa(int(UnknownMethod)), Method: method}
}

type contractError struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}

// NewContractError describes an error returned by the coffee contract itself.
func NewContractError(code uint32, name string) *contractError {
	return &contractError{Code: strconv.Itoa(int(code)), Name: name}
}
