// Package types defines the metamodel domain: the attribute value-type model,
// the definition entities (attribute, entity, entity-link, tag), the instance
// entities (entity, entity-link and their typed attribute instances),
// pagination, and the standard errors shared by the repositories and the
// management layer.
package types
