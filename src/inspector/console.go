package inspector

// ConsoleLevel is the severity of a console message.
type ConsoleLevel string

// ConsoleSource is the origin a console message is attributed to.
type ConsoleSource string

const (
	LevelDebug ConsoleLevel = "debug"

	SourceJavaScript ConsoleSource = "javascript"
)

// Console is the host's outbound debugging console.
type Console interface {
	WriteToConsole(level ConsoleLevel, source ConsoleSource, text string)
}

// ConsoleFunc adapts a function to Console.
type ConsoleFunc func(level ConsoleLevel, source ConsoleSource, text string)

func (f ConsoleFunc) WriteToConsole(level ConsoleLevel, source ConsoleSource, text string) {
	f(level, source, text)
}

type nopConsole struct{}

func (nopConsole) WriteToConsole(ConsoleLevel, ConsoleSource, string) {}
