package bind

// Observer receives lifecycle notifications from a Manager.
// Implementations must not call back into the manager.
type Observer interface {
	// Rebuilt is called after every rebuild with the size of the stream
	// set and whether a subscription was created.
	Rebuilt(streams int, subscribed bool)

	// Terminated is called by every terminate, hadHandle reports whether
	// a subscription was actually released.
	Terminated(hadHandle bool)

	// Updated is called for every stream notification, rendered reports
	// whether a re-render was requested.
	Updated(rendered bool)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnRebuilt    func(streams int, subscribed bool)
	OnTerminated func(hadHandle bool)
	OnUpdated    func(rendered bool)
}

// Rebuilt calls OnRebuilt.
func (f ObserverFuncs) Rebuilt(streams int, subscribed bool) {
	if f.OnRebuilt != nil {
		f.OnRebuilt(streams, subscribed)
	}
}

// Terminated calls OnTerminated.
func (f ObserverFuncs) Terminated(hadHandle bool) {
	if f.OnTerminated != nil {
		f.OnTerminated(hadHandle)
	}
}

// Updated calls OnUpdated.
func (f ObserverFuncs) Updated(rendered bool) {
	if f.OnUpdated != nil {
		f.OnUpdated(rendered)
	}
}

// Observers fans notifications out to several observers in order.
type Observers []Observer

// Rebuilt forwards to every observer.
func (o Observers) Rebuilt(streams int, subscribed bool) {
	for _, ob := range o {
		ob.Rebuilt(streams, subscribed)
	}
}

// Terminated forwards to every observer.
func (o Observers) Terminated(hadHandle bool) {
	for _, ob := range o {
		ob.Terminated(hadHandle)
	}
}

// Updated forwards to every observer.
func (o Observers) Updated(rendered bool) {
	for _, ob := range o {
		ob.Updated(rendered)
	}
}

type nopObserver struct{}

func (nopObserver) Rebuilt(int, bool) {}
func (nopObserver) Terminated(bool)   {}
func (nopObserver) Updated(bool)      {}
