package utils

// MaskCPF keeps the last four characters of a CPF for log lines
func MaskCPF(cpf string) string {
	if len(cpf) <= 4 {
		return "****"
	}
	masked := make([]byte, len(cpf))
	for i := range cpf {
		if i < len(cpf)-4 {
			masked[i] = '*'
		} else {
			masked[i] = cpf[i]
		}
	}
	return string(masked)
}
