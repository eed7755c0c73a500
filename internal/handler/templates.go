// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "html/template"

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sign in - SevaDesk</title>
<style>
body{font-family:system-ui,sans-serif;background:#f3f4f6;display:flex;align-items:center;justify-content:center;min-height:100vh;margin:0}
.card{background:#fff;border-radius:8px;box-shadow:0 1px 3px rgba(0,0,0,.15);padding:2rem;width:320px}
h1{font-size:1.25rem;margin:0 0 1rem}
label{display:block;font-size:.875rem;margin-bottom:.25rem;color:#374151}
input{width:100%;box-sizing:border-box;padding:.5rem;margin-bottom:1rem;border:1px solid #d1d5db;border-radius:4px}
button{width:100%;padding:.5rem;background:#dc2626;color:#fff;border:0;border-radius:4px;cursor:pointer}
.flash{background:#fef2f2;color:#991b1b;border:1px solid #fecaca;border-radius:4px;padding:.5rem;font-size:.875rem;margin-bottom:1rem}
</style>
</head>
<body>
<div class="card">
<h1>Admin sign in</h1>
{{if .Flash}}<div class="flash">{{.Flash}}</div>{{end}}
<form method="post" action="/login">
<label for="email">Email</label>
<input id="email" name="email" type="email" autocomplete="username" required>
<label for="password">Password</label>
<input id="password" name="password" type="password" autocomplete="current-password" required>
<button type="submit">Sign in</button>
</form>
</div>
</body>
</html>
`))

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Dashboard - SevaDesk</title>
<style>
body{font-family:system-ui,sans-serif;background:#f3f4f6;margin:0}
header{background:#dc2626;color:#fff;padding:1rem 2rem;display:flex;justify-content:space-between;align-items:center}
header form{margin:0}
header button{background:transparent;border:1px solid #fff;color:#fff;border-radius:4px;padding:.25rem .75rem;cursor:pointer}
main{padding:2rem}
#stats{display:grid;grid-template-columns:repeat(auto-fit,minmax(180px,1fr));gap:1rem}
.stat{background:#fff;border-radius:8px;padding:1rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.stat .num{font-size:2rem;font-weight:700}
#activity{margin-top:2rem;background:#fff;border-radius:8px;padding:1rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
</style>
</head>
<body>
<header>
<strong>SevaDesk &mdash; {{.UserName}}</strong>
<form method="post" action="/logout"><button type="submit">Sign out</button></form>
</header>
<main>
<div id="stats"></div>
<div id="activity"><em>Loading&hellip;</em></div>
</main>
<script>
fetch('/api/dashboard').then(function(r){return r.json()}).then(function(body){
  var d = body.data;
  var stats = document.getElementById('stats');
  [['Contacts', d.stats.totalContacts], ['Active events', d.stats.activeEvents],
   ['Admins', d.stats.totalAdmins], ['Moderators', d.stats.totalModerators]]
    .forEach(function(s){
      var el = document.createElement('div');
      el.className = 'stat';
      el.innerHTML = '<div class="num">' + s[1] + '</div><div>' + s[0] + '</div>';
      stats.appendChild(el);
    });
  var act = document.getElementById('activity');
  act.innerHTML = '<h2>Recent activity</h2>';
  d.recentActivities.forEach(function(a){
    var p = document.createElement('p');
    p.textContent = '[' + a.type + '] ' + a.title + ' (' + a.createdAt + ')';
    act.appendChild(p);
  });
}).catch(function(){
  document.getElementById('activity').textContent = 'Failed to load dashboard data';
});
</script>
</body>
</html>
`))
