package env

// Prefix is the prefix of every environment variable read by the CLI,
// e.g. MEPQ_CONFIG for the -config flag
const Prefix = "MEPQ"
