package sqlitestore

const Schema = `
create table if not exists catalog_record (
	position integer primary key autoincrement,
	id text not null unique,
	title text not null default '',
	url text not null default '',
	synopsis text not null default '',
	genres text not null default '[]',
	magazine text not null default '',
	tags text not null default '[]'
);
`
