// Package component defines the lifecycle interface shared by toolbox
// infrastructure, the database connection being the main implementation.
//
// Host applications start and stop components themselves; this package only
// fixes the contract and the health vocabulary.
package component
