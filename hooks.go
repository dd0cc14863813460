package compose

// Optional lifecycle capabilities a feature may implement. The composer
// checks for each interface at dispatch time and calls the hook when
// present; a feature implements any subset. Hooks run in declaration order
// and the first returned error aborts the remaining hooks of that pass.

// WillConnectHook runs before the host connects.
type WillConnectHook interface {
	HostWillConnect() error
}

// ConnectedHook runs after the host connects.
type ConnectedHook interface {
	HostConnected() error
}

// WillDisconnectHook runs before the host disconnects.
type WillDisconnectHook interface {
	HostWillDisconnect() error
}

// DisconnectedHook runs after the host disconnects.
type DisconnectedHook interface {
	HostDisconnected() error
}

// WillUpdateHook runs before each host update pass with the names of the
// properties about to change.
type WillUpdateHook interface {
	HostWillUpdate(changed []string) error
}

// UpdatedHook runs after each host update pass. The base has already
// mirrored the changed host values into the feature cache when this fires.
type UpdatedHook interface {
	HostUpdated(changed []string) error
}

// WillFirstUpdateHook runs before the host's first update pass.
type WillFirstUpdateHook interface {
	HostWillFirstUpdate(changed []string) error
}

// FirstUpdatedHook runs once after the host's first update pass, after the
// base reconciled host-supplied values against feature defaults.
type FirstUpdatedHook interface {
	HostFirstUpdated(changed []string) error
}

// AttributeChangedHook runs when a host attribute changes.
type AttributeChangedHook interface {
	HostAttributeChanged(name, oldValue, newValue string) error
}

// dispatchTo runs the base bookkeeping for event, then the matching hook
// when feature implements it.
func dispatchTo(feature Feature, event LifecycleEvent) error {
	base := feature.Base()

	switch event.Stage {
	case StageFirstUpdated:
		base.reconcile()
	case StageUpdated:
		base.syncFromHost(event.Changed)
	}

	switch event.Stage {
	case StageWillConnect:
		if hook, ok := feature.(WillConnectHook); ok {
			return hook.HostWillConnect()
		}
	case StageConnected:
		if hook, ok := feature.(ConnectedHook); ok {
			return hook.HostConnected()
		}
	case StageWillDisconnect:
		if hook, ok := feature.(WillDisconnectHook); ok {
			return hook.HostWillDisconnect()
		}
	case StageDisconnected:
		if hook, ok := feature.(DisconnectedHook); ok {
			return hook.HostDisconnected()
		}
	case StageWillUpdate:
		if hook, ok := feature.(WillUpdateHook); ok {
			return hook.HostWillUpdate(event.Changed)
		}
	case StageUpdated:
		if hook, ok := feature.(UpdatedHook); ok {
			return hook.HostUpdated(event.Changed)
		}
	case StageWillFirstUpdate:
		if hook, ok := feature.(WillFirstUpdateHook); ok {
			return hook.HostWillFirstUpdate(event.Changed)
		}
	case StageFirstUpdated:
		if hook, ok := feature.(FirstUpdatedHook); ok {
			return hook.HostFirstUpdated(event.Changed)
		}
	case StageAttributeChanged:
		if hook, ok := feature.(AttributeChangedHook); ok {
			return hook.HostAttributeChanged(event.Attribute, event.OldValue, event.NewValue)
		}
	}
	return nil
}
