package sqlite

// schemaDDL creates every relation of the metamodel. The four attribute
// relations are deliberately separate physical relations keyed by value type
// rather than one polymorphic relation; reads fan out across them instead.
// owner_id on the attribute relations carries no foreign key because the
// owner is either an entity or an entity link.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS tags (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT
);

CREATE TABLE IF NOT EXISTS attribute_defs (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    value_type TEXT NOT NULL,
    default_value TEXT NOT NULL DEFAULT '',
    required INTEGER NOT NULL DEFAULT 0,
    tag_id TEXT
);

CREATE UNIQUE INDEX IF NOT EXISTS attribute_defs_name_desc_unique
    ON attribute_defs(name, description);

CREATE TABLE IF NOT EXISTS entity_defs (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    listing_attr_def_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS entity_defs_attribute_defs_xref (
    entity_def_id TEXT NOT NULL REFERENCES entity_defs(id),
    attribute_def_id TEXT NOT NULL REFERENCES attribute_defs(id),
    show_index INTEGER NOT NULL,
    PRIMARY KEY (entity_def_id, attribute_def_id)
);

CREATE TABLE IF NOT EXISTS entity_link_defs (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    cardinality TEXT NOT NULL,
    source_entity_def_id TEXT NOT NULL REFERENCES entity_defs(id),
    target_entity_def_id TEXT NOT NULL REFERENCES entity_defs(id)
);

CREATE TABLE IF NOT EXISTS entity_link_defs_attribute_defs_xref (
    entity_link_def_id TEXT NOT NULL REFERENCES entity_link_defs(id),
    attribute_def_id TEXT NOT NULL REFERENCES attribute_defs(id),
    show_index INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (entity_link_def_id, attribute_def_id)
);

CREATE TABLE IF NOT EXISTS entities (
    id TEXT PRIMARY KEY,
    def_id TEXT NOT NULL REFERENCES entity_defs(id),
    listing_attr_def_id TEXT NOT NULL DEFAULT '',
    listing_attr_name TEXT NOT NULL DEFAULT '',
    listing_attr_value TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS entity_links (
    id TEXT PRIMARY KEY,
    def_id TEXT NOT NULL REFERENCES entity_link_defs(id),
    source_entity_id TEXT NOT NULL REFERENCES entities(id),
    target_entity_id TEXT NOT NULL REFERENCES entities(id)
);

CREATE TABLE IF NOT EXISTS text_attributes (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    def_id TEXT NOT NULL REFERENCES attribute_defs(id),
    value TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS smallint_attributes (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    def_id TEXT NOT NULL REFERENCES attribute_defs(id),
    value INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS integer_attributes (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    def_id TEXT NOT NULL REFERENCES attribute_defs(id),
    value INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS boolean_attributes (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    def_id TEXT NOT NULL REFERENCES attribute_defs(id),
    value INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_entities_def ON entities(def_id);
CREATE INDEX IF NOT EXISTS idx_entity_links_def ON entity_links(def_id);
CREATE INDEX IF NOT EXISTS idx_entity_links_source ON entity_links(source_entity_id);
CREATE INDEX IF NOT EXISTS idx_entity_links_target ON entity_links(target_entity_id);
CREATE INDEX IF NOT EXISTS idx_ed_ad_xref_attr ON entity_defs_attribute_defs_xref(attribute_def_id);
CREATE INDEX IF NOT EXISTS idx_eld_ad_xref_attr ON entity_link_defs_attribute_defs_xref(attribute_def_id);
CREATE INDEX IF NOT EXISTS idx_text_attributes_owner ON text_attributes(owner_id);
CREATE INDEX IF NOT EXISTS idx_smallint_attributes_owner ON smallint_attributes(owner_id);
CREATE INDEX IF NOT EXISTS idx_integer_attributes_owner ON integer_attributes(owner_id);
CREATE INDEX IF NOT EXISTS idx_boolean_attributes_owner ON boolean_attributes(owner_id);
`
