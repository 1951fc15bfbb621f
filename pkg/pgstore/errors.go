package pgstore

const constraintFingerprint = "devices_fingerprint_key"
