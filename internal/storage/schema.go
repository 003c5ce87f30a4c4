package storage

const schema = `
-- The 'pills_bookmark' table stores user-saved drug references.
-- No uniqueness constraint: duplicate bookmarks are representable and the
-- toggle operation is responsible for check-then-act semantics.
CREATE TABLE IF NOT EXISTS pills_bookmark (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    drug_name TEXT NOT NULL,
    labeler TEXT,
    mpc_imprint TEXT
);

-- The 'reminders' table stores one-shot medication reminders.
CREATE TABLE IF NOT EXISTS reminders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    drug_name TEXT NOT NULL,
    shape TEXT NOT NULL,
    instructions TEXT NOT NULL,
    shapeimage TEXT NOT NULL,
    time TEXT NOT NULL,
    is_taken BOOLEAN DEFAULT 0,
    taken_date TEXT DEFAULT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- The 'prescriptions' table stores captured prescription image pairs.
CREATE TABLE IF NOT EXISTS prescriptions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    image1 TEXT NOT NULL,
    image2 TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

const dropTables = `
DROP TABLE IF EXISTS pills_bookmark;
DROP TABLE IF EXISTS reminders;
DROP TABLE IF EXISTS prescriptions;
`
