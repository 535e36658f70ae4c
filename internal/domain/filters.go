package domain

// DeploymentFilter defines filtering options for recorded deployments
type DeploymentFilter struct {
	ChainID      uint64
	Network      string
	ContractName string
}
