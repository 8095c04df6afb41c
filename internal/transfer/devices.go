package transfer

// Intner picks an index in [0, n).
type Intner interface {
	Intn(n int) int
}

// Devices are the device kinds a simulated transfer moves between.
var Devices = []string{"Smartphone", "Tablet", "Laptop"}

// PickDevices chooses a source and a different destination from devices.
// With a single device both ends are the same.
func PickDevices(rnd Intner, devices []string) (source, destination string) {
	switch len(devices) {
	case 0:
		return "", ""
	case 1:
		return devices[0], devices[0]
	}
	src := rnd.Intn(len(devices))
	dst := rnd.Intn(len(devices) - 1)
	if dst >= src {
		dst++
	}
	return devices[src], devices[dst]
}
