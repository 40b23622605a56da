package service

import (
	"fmt"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
)

// Shipping methods.
const (
	MethodPickup      = "pickup"
	MethodCourierSelf = "courier_self"
	MethodCourier     = "courier"
)

// Courier sub-options and their flat rates in cents. Pickup and
// self-arranged courier are free.
var courierRates = map[string]int64{
	"locker_to_locker": 6500,
	"locker_to_door":   9500,
	"door_to_door":     12500,
}

// ShippingCost computes the shipping cost for a method and, for courier
// delivery, its sub-option.
func ShippingCost(method, option string) (int64, error) {
	switch method {
	case MethodPickup, MethodCourierSelf:
		if option != "" {
			return 0, apperr.Validation(fmt.Sprintf("shipping method %s takes no option", method))
		}
		return 0, nil
	case MethodCourier:
		rate, ok := courierRates[option]
		if !ok {
			return 0, apperr.Validation("unknown courier option")
		}
		return rate, nil
	default:
		return 0, apperr.Validation("unknown shipping method")
	}
}
