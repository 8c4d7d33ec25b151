package mq

import (
	"log"
)

type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	ItemId     string `json:"item_id"`
	ItemType   string `json:"item_type"`
}

// Emit publishes a fire-and-forget index event for downstream consumers.
func Emit(eventName string, content Index) error {
	log.Printf("event %s: %s %s %s", eventName, content.EntityType, content.Method, content.EntityId)
	return nil
}
