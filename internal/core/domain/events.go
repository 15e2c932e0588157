package domain

import (
	"encoding/json"
	"fmt"
)

const BridgeTopic = "nftbridge"

type EventType int

const (
	EventTypeUndefined EventType = iota
	EventTypeNFTSent
	EventTypeNFTReceived
	// EventTypeNFTTransferCompleted is reserved for a remote acknowledgement and never emitted.
	EventTypeNFTTransferCompleted
)

func (t EventType) String() string {
	switch t {
	case EventTypeNFTSent:
		return "NFTSent"
	case EventTypeNFTReceived:
		return "NFTReceived"
	case EventTypeNFTTransferCompleted:
		return "NFTTransferCompleted"
	default:
		return "Undefined"
	}
}

type Event interface {
	GetTopic() string
	GetType() EventType
}

// BridgeEvent is embedded by every event, Id is the string form of the asset key.
type BridgeEvent struct {
	Id   string
	Type EventType
}

func (e BridgeEvent) GetTopic() string   { return BridgeTopic }
func (e BridgeEvent) GetType() EventType { return e.Type }

type NFTSent struct {
	BridgeEvent
	CollectionId CollectionId
	ItemId       ItemId
	DestParaId   ParaId
}

func NewNFTSent(key AssetKey, destParaId ParaId) NFTSent {
	return NFTSent{
		BridgeEvent:  BridgeEvent{Id: key.String(), Type: EventTypeNFTSent},
		CollectionId: key.CollectionId,
		ItemId:       key.ItemId,
		DestParaId:   destParaId,
	}
}

type NFTReceived struct {
	BridgeEvent
	CollectionId CollectionId
	ItemId       ItemId
	FromParaId   ParaId
}

func NewNFTReceived(key AssetKey, fromParaId ParaId) NFTReceived {
	return NFTReceived{
		BridgeEvent:  BridgeEvent{Id: key.String(), Type: EventTypeNFTReceived},
		CollectionId: key.CollectionId,
		ItemId:       key.ItemId,
		FromParaId:   fromParaId,
	}
}

type NFTTransferCompleted struct {
	BridgeEvent
	CollectionId CollectionId
	ItemId       ItemId
	FromParaId   ParaId
	ToParaId     ParaId
}

// StoredEvent is an event as committed to the ledger event log.
type StoredEvent struct {
	Seq       uint64
	CreatedAt int64
	Event     Event
}

func SerializeEvent(event Event) ([]byte, error) {
	return json.Marshal(event)
}

func DeserializeEvent(buf []byte) (Event, error) {
	var eventType struct {
		Type EventType
	}

	if err := json.Unmarshal(buf, &eventType); err != nil {
		return nil, err
	}

	switch eventType.Type {
	case EventTypeNFTSent:
		var event = NFTSent{}
		if err := json.Unmarshal(buf, &event); err == nil {
			return event, nil
		}
	case EventTypeNFTReceived:
		var event = NFTReceived{}
		if err := json.Unmarshal(buf, &event); err == nil {
			return event, nil
		}
	case EventTypeNFTTransferCompleted:
		var event = NFTTransferCompleted{}
		if err := json.Unmarshal(buf, &event); err == nil {
			return event, nil
		}
	}

	return nil, fmt.Errorf("unknown event type %d", eventType.Type)
}
