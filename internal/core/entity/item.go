package entity

import "fmt"

// ItemType is the kind of lighting element a light entity controls.
type ItemType string

const (
	ITEM_TYPE_ACCENT          ItemType = "accent"
	ITEM_TYPE_BUTTON_ACTIVE   ItemType = "button_active"
	ITEM_TYPE_BUTTON_INACTIVE ItemType = "button_inactive"
	ITEM_TYPE_FADER_BOTTOM    ItemType = "fader_bottom"
	ITEM_TYPE_FADER_TOP       ItemType = "fader_top"
)

var itemTypes = []ItemType{
	ITEM_TYPE_ACCENT,
	ITEM_TYPE_BUTTON_ACTIVE,
	ITEM_TYPE_BUTTON_INACTIVE,
	ITEM_TYPE_FADER_BOTTOM,
	ITEM_TYPE_FADER_TOP,
}

func ItemTypes() []ItemType {
	return append([]ItemType(nil), itemTypes...)
}

func ParseItemType(value string) (ItemType, error) {
	for _, t := range itemTypes {
		if string(t) == value {
			return t, nil
		}
	}
	return "", fmt.Errorf("entity: unknown item type %q", value)
}

func (t ItemType) String() string {
	return string(t)
}
