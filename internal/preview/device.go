package preview

// DeviceMode selects the simulated viewport width for the preview frame.
type DeviceMode string

const (
	DeviceDesktop DeviceMode = "DESKTOP"
	DeviceTablet  DeviceMode = "TABLET"
	DeviceMobile  DeviceMode = "MOBILE"
)

// Width returns the CSS width for the mode. Desktop fills the container.
func (m DeviceMode) Width() string {
	switch m {
	case DeviceMobile:
		return "375px"
	case DeviceTablet:
		return "768px"
	default:
		return "100%"
	}
}
