package bluetooth

import "context"

// Central is the host capability that discovers advertisers.
type Central interface {
	// StartScan begins delivering advertisements to onAdvertisement until the
	// returned handle is stopped. It fails when the host cannot scan.
	StartScan(onAdvertisement func(Advertisement)) (ScanHandle, error)
}

// ScanHandle controls a running scan.
type ScanHandle interface {
	Stop() error
}

// Peripheral is an advertiser that can be connected to.
type Peripheral interface {
	Connect(ctx context.Context) (Session, error)
}

// Session is an open GATT connection.
type Session interface {
	Connected() bool
	Disconnect() error
	Service(ctx context.Context, id UUID) (Service, error)
}

// Service is a resolved primary service.
type Service interface {
	Characteristic(ctx context.Context, id UUID) (Characteristic, error)
}

// Characteristic is a resolved characteristic handle.
type Characteristic interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}
