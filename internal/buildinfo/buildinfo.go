package buildinfo

const Graffiti = " _____ _   _ _____ _____ _   _ _____ \n|_   _| \\ | |_   _|  ___| \\ | |_   _|\n  | | |  \\| | | | | |__ |  \\| | | |  \n  | | | . ` | | | |  __|| . ` | | |  \n _| |_| |\\  | | | | |___| |\\  | | |  \n \\___/\\_| \\_/ \\_/ \\____/\\_| \\_/ \\_/  \n\n"

var (
	BuildTag string = "v0.0.0"
	Name     string = "INTENT"
	Time     string = ""
)

type buildinfo struct{}

func (buildinfo) Tag() string {
	return BuildTag
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	return Time
}

var Info buildinfo
