package validation

var std = New()

// Default returns the package-level engine.
func Default() *Engine { return std }

func ParseEmail(s string) (string, error)    { return std.ParseEmail(s) }
func ParsePassword(s string) (string, error) { return std.ParsePassword(s) }
func ParseName(s string) (string, error)     { return std.ParseName(s) }

func IsValidEmail(s string) bool    { return std.IsValidEmail(s) }
func IsValidPassword(s string) bool { return std.IsValidPassword(s) }
func IsValidName(s string) bool     { return std.IsValidName(s) }

func ValidateLogin(in LoginInput) (LoginInput, error)          { return std.ValidateLogin(in) }
func ValidateRegister(in RegisterInput) (RegisterInput, error) { return std.ValidateRegister(in) }
