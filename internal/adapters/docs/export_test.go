package docs

const MaxPending = maxPending
