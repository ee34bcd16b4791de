package constvars

const (
	RegexPhoneNumberTenDigits = `^\d{10}$`
	RegexPostalCodeSixDigits  = `^\d{6}$`
	RegexDateYYYYMMDD         = `^\d{4}-\d{2}-\d{2}$`
)
