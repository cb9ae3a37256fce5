// Package coc models certified raw-material lots (COC documents) and their
// consumption by module production.
//
// All lots of a material form one pool shared by every company. Production
// draws from the pool oldest invoice first, and each draw is logged as a
// ConsumptionRecord so a production lot can be traced back to its certificates.
package coc
