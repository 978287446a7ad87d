package state

import (
	"hoardmap/pkg/model"
)

// Prune reduces a full state snapshot to the small, stable subset that is
// safe to republish: device name, battery, network summary, and weather.
// The full diagnostics payload stays private. Every field is optional;
// a source field that is absent is simply absent in the projection, and a
// state missing all groups prunes to an empty mapping.
func Prune(s model.State) model.State {
	pruned := model.State{}
	if s == nil {
		return pruned
	}

	if identity, ok := asMap(s["identity"]); ok {
		group := pick(identity, "device_name")
		if len(group) > 0 {
			pruned["identity"] = group
		}
	}

	if power, ok := asMap(s["power"]); ok {
		group := pick(power, "battery_percent")
		if len(group) > 0 {
			pruned["power"] = group
		}
	}

	if network, ok := asMap(s["network"]); ok {
		group := pick(network, "type", "operator")
		if cellular, ok := asMap(network["cellular"]); ok {
			if signal, ok := cellular["signal_strength"]; ok {
				group["signal_strength"] = signal
			}
		}
		if len(group) > 0 {
			pruned["network"] = group
		}
	}

	if env, ok := asMap(s["environment"]); ok {
		group := map[string]any{}
		if weather, ok := asMap(env["weather"]); ok {
			if w := pick(weather, "description", "temperature", "assessment", "humidity"); len(w) > 0 {
				group["weather"] = w
			}
		}
		if wind, ok := asMap(env["wind"]); ok {
			if w := pick(wind, "speed", "description", "direction"); len(w) > 0 {
				group["wind"] = w
			}
		}
		if len(group) > 0 {
			pruned["environment"] = group
		}
	}

	return pruned
}

// pick copies the named keys that exist in src into a fresh mapping.
func pick(src map[string]any, keys ...string) map[string]any {
	out := map[string]any{}
	for _, k := range keys {
		if v, ok := src[k]; ok {
			out[k] = v
		}
	}
	return out
}
