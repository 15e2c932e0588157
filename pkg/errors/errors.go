package errors

import (
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const errorDomain = "nftbridge"

// Code is the type representing a namespace error code.
type Code[MT any] struct {
	Code     uint16
	Name     string
	GrpcCode grpccodes.Code
}

// New creates a new error with the given code and the message
func (c Code[MT]) New(msg string, args ...any) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: fmt.Errorf(msg, args...),
	}
}

// Wrap creates a new Error with the given code and the cause error
func (c Code[MT]) Wrap(cause error) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: cause,
	}
}

func (c Code[MT]) String() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.Code)
}

// Is reports whether err, or any error it wraps, was created from this code.
func (c Code[MT]) Is(err error) bool {
	var structuredErr Error
	if !errors.As(err, &structuredErr) {
		return false
	}
	return structuredErr.Code() == c.Code
}

type Error interface {
	error
	Log() *log.Entry
	Code() uint16
	CodeName() string
	GrpcCode() grpccodes.Code
	Metadata() map[string]string
	GRPCStatus() *status.Status
}

type TypedError[MT any] interface {
	Error
	WithMetadata(MT) TypedError[MT]
}

// ErrorImpl is the default concrete implementation of TypedError.
type ErrorImpl[MT any] struct {
	code     Code[MT]
	cause    error
	metadata MT
}

func (e *ErrorImpl[MT]) Log() *log.Entry {
	return log.WithField("name", e.code.Name).
		WithField("code", e.code.Code).
		WithField("metadata", e.metadata)
}

func (e *ErrorImpl[MT]) Metadata() map[string]string {
	// convert any metadata to map[string]string
	metadata := make(map[string]string)
	buf, err := json.Marshal(e.metadata)
	if err == nil {
		var genericMap map[string]any
		if err := json.Unmarshal(buf, &genericMap); err == nil {
			for k, v := range genericMap {
				vStr := ""
				if v != nil {
					vStr = fmt.Sprintf("%v", v)
				}
				metadata[k] = vStr
			}
		}
	}
	return metadata
}

func (e *ErrorImpl[MT]) GrpcCode() grpccodes.Code {
	return e.code.GrpcCode
}

func (e *ErrorImpl[MT]) Code() uint16 {
	return e.code.Code
}

func (e *ErrorImpl[MT]) CodeName() string {
	return e.code.Name
}

// GRPCStatus makes the error convertible with status.Convert, the ErrorInfo detail carries the
// code name as reason and the metadata as is.
func (e *ErrorImpl[MT]) GRPCStatus() *status.Status {
	st := status.New(e.code.GrpcCode, e.Error())
	metadata := e.Metadata()
	metadata["code"] = fmt.Sprintf("%d", e.code.Code)

	stWithDetails, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   e.code.Name,
		Domain:   errorDomain,
		Metadata: metadata,
	})
	if err != nil {
		return st
	}
	return stWithDetails
}

// Error() implements the error interface.
func (e *ErrorImpl[MT]) Error() string {
	return fmt.Sprintf("%s: %s", e.code.String(), e.cause.Error())
}

func (e *ErrorImpl[MT]) Unwrap() error {
	return e.cause
}

func (e *ErrorImpl[MT]) WithMetadata(metadata MT) TypedError[MT] {
	e.metadata = metadata
	return e
}

type AssetMetadata struct {
	CollectionId uint32 `json:"collection_id"`
	ItemId       uint32 `json:"item_id"`
}

type NotOwnerMetadata struct {
	CollectionId uint32 `json:"collection_id"`
	ItemId       uint32 `json:"item_id"`
	Caller       string `json:"caller"`
}

type MetadataTooLongMetadata struct {
	Field  string `json:"field"`
	Length int    `json:"length"`
	MaxLen int    `json:"max_len"`
}

type DestinationMetadata struct {
	DestParaId uint32 `json:"dest_para_id"`
}

type XcmSendMetadata struct {
	DestParaId uint32 `json:"dest_para_id"`
}

type OriginMetadata struct {
	Origin string `json:"origin"`
}

type SignatureMetadata struct {
	Sender    string `json:"sender"`
	ExpiresAt int64  `json:"expires_at"`
	Now       int64  `json:"now"`
}

var INTERNAL_ERROR = Code[map[string]any]{0, "INTERNAL_ERROR", grpccodes.Internal}
var NFT_NOT_FOUND = Code[AssetMetadata]{1, "NFT_NOT_FOUND", grpccodes.NotFound}
var NOT_OWNER = Code[NotOwnerMetadata]{2, "NOT_OWNER", grpccodes.PermissionDenied}

var FAILED_TO_SEND_XCM = Code[XcmSendMetadata]{
	3,
	"FAILED_TO_SEND_XCM",
	grpccodes.Unavailable,
}

var INVALID_DESTINATION = Code[DestinationMetadata]{
	4,
	"INVALID_DESTINATION",
	grpccodes.InvalidArgument,
}

var METADATA_TOO_LONG = Code[MetadataTooLongMetadata]{
	5,
	"METADATA_TOO_LONG",
	grpccodes.InvalidArgument,
}
var BAD_ORIGIN = Code[OriginMetadata]{6, "BAD_ORIGIN", grpccodes.PermissionDenied}
var NFT_ALREADY_EXISTS = Code[AssetMetadata]{7, "NFT_ALREADY_EXISTS", grpccodes.AlreadyExists}

var INVALID_SIGNATURE = Code[SignatureMetadata]{
	8,
	"INVALID_SIGNATURE",
	grpccodes.Unauthenticated,
}
var INVALID_REQUEST = Code[map[string]any]{9, "INVALID_REQUEST", grpccodes.InvalidArgument}
