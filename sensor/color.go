package sensor

const (
	darkPixel    = 80
	minDarkRatio = 0.1
	maxDarkRatio = 0.7
)

// usableFrame rejects frames that are blank or saturated: the share of
// dark pixels must fall strictly between minDarkRatio and maxDarkRatio.
func usableFrame(frame []byte) bool {
	if len(frame) == 0 {
		return false
	}
	dark := 0
	for _, px := range frame {
		if px < darkPixel {
			dark++
		}
	}
	darkness := float64(dark) / float64(len(frame))
	return darkness > minDarkRatio && darkness < maxDarkRatio
}
