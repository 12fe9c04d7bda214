package capture

import "gocv.io/x/gocv"

// maxProbeDevices bounds the device scan. Index gaps are common (virtual
// cameras, unplugged devices), so the scan does not stop at the first miss.
const maxProbeDevices = 10

// ListDevices probes device indices 0 through maxProbeDevices-1 and
// returns the IDs that can be opened and deliver a frame. Opening a camera
// can take a moment per device, so this is meant for startup or an
// explicit rescan, not for the hot path.
func ListDevices() []int {
	var available []int
	for id := 0; id < maxProbeDevices; id++ {
		capture, err := gocv.OpenVideoCapture(id)
		if err != nil {
			continue
		}

		mat := gocv.NewMat()
		if capture.Read(&mat) && !mat.Empty() {
			available = append(available, id)
		}
		mat.Close()
		capture.Close()
	}
	return available
}
