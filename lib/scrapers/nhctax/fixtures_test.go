package nhctax

const formPage = `<html><body>
<form id="frmMain" action="commonsearch.aspx?mode=owner" method="post">
<input type="hidden" name="__VIEWSTATE" value="vs-123" />
<input type="hidden" name="__EVENTVALIDATION" value="ev-456" />
<input type="text" name="ctl00$cphPage$txtOwner" />
<input type="submit" name="ctl00$cphPage$btnSearch" value="Search" />
</form>
</body></html>`

const formPageNoToken = `<html><body>
<form id="frmMain">
<input type="text" name="ctl00$cphPage$txtOwner" />
</form>
</body></html>`

const resultsPageTwoRows = `<html><body>
<table class="SearchResults" summary="Search Results">
<tr><th>Parcel ID</th><th>Owner</th><th>Address</th><th>Value</th></tr>
<tr>
  <td><a href="/pt/datalets/datalet.aspx?parid=R01234">R01234-567</a></td>
  <td>SMITH  JOHN</td>
  <td>123 MAIN ST</td>
  <td>$250,000</td>
</tr>
<tr>
  <td><a href="/pt/datalets/datalet.aspx?parid=R09876">R09876-543</a></td>
  <td>SMITH JANE</td>
  <td>456 OAK AVE</td>
  <td>$310,500</td>
</tr>
</table>
</body></html>`

const noResultsPage = `<html><body>
<p>Your search returned no records found. Please refine your criteria.</p>
</body></html>`

const maintenancePage = `<html><body>
<h1>System Maintenance</h1>
<p>The portal is temporarily down for scheduled maintenance.</p>
</body></html>`

const sessionExpiredPage = `<html><body>
<h1>Session Expired</h1>
<p>Your session has timed out. Please start a new search.</p>
</body></html>`

const detailPage = `<html><body>
<div class="assessmentSummary">Total assessed value $250,000 for tax year 2025</div>
<table>
<tr><td>Parcel ID:</td><td>R01234-567</td></tr>
<tr><td>Owner Name:</td><td>SMITH JOHN</td></tr>
<tr><td>Land Value:</td><td>$100,000</td></tr>
<tr><td>Building Value:</td><td>$150,000</td></tr>
</table>
</body></html>`

const statusOkPage = `<html><head><title>New Hanover County Tax Search</title></head>
<body>Search property tax records online.</body></html>`
